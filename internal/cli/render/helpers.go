package render

import (
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// formatGas groups digits: 1234567 -> 1,234,567
func formatGas(gas uint64) string {
	if gas == 0 {
		return "-"
	}
	return numbers.Sprintf("%d", gas)
}

// formatUnits renders an 18-decimal amount in whole units when it has no
// fractional part, and in base units otherwise
func formatUnits(amount *big.Int) string {
	if amount == nil {
		return "-"
	}
	unit := big.NewInt(1e18)
	if amount.Sign() == 0 || new(big.Int).Mod(amount, unit).Sign() != 0 {
		return amount.String() + " wei"
	}
	whole := new(big.Int).Div(amount, unit)
	if whole.IsInt64() {
		return numbers.Sprintf("%d", whole.Int64())
	}
	return whole.String()
}

// formatWei renders a native currency amount
func formatWei(amount *big.Int) string {
	s := formatUnits(amount)
	if amount == nil || strings.HasSuffix(s, " wei") {
		return s
	}
	return s + " ETH"
}

// shortHash abbreviates a transaction hash for tables
func shortHash(hash common.Hash) string {
	if hash == (common.Hash{}) {
		return "-"
	}
	hex := hash.Hex()
	return hex[:10] + "…" + hex[len(hex)-4:]
}

// newTable creates a borderless table that renders into out
func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.AppendHeader(header)
	return t
}
