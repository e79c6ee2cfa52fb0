package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/flash-protocol/flash-deployer/internal/domain"
)

// Event is a decoded log entry
type Event struct {
	Name    string
	Address common.Address
	Fields  map[string]any
	Log     *types.Log
}

// FindEvents decodes every log in the receipt emitted by this contract under the named event
func (k *Contract) FindEvents(receipt *types.Receipt, name string) ([]*Event, error) {
	if receipt == nil {
		return nil, fmt.Errorf("no receipt")
	}
	event, ok := k.ABI.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %s not in %s ABI", name, k.Name)
	}

	var events []*Event
	for _, log := range receipt.Logs {
		if log.Address != k.Address || len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}
		fields, err := decodeLog(event, log)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s.%s: %w", k.Name, name, err)
		}
		events = append(events, &Event{
			Name:    event.RawName,
			Address: log.Address,
			Fields:  fields,
			Log:     log,
		})
	}
	return events, nil
}

// RequireEvent returns the first matching event or ErrEventNotFound
func (k *Contract) RequireEvent(receipt *types.Receipt, name string) (*Event, error) {
	events, err := k.FindEvents(receipt, name)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", domain.ErrEventNotFound, k.Name, name)
	}
	return events[0], nil
}

func decodeLog(event abi.Event, log *types.Log) (map[string]any, error) {
	fields := make(map[string]any)

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("failed to parse topics: %w", err)
		}
	}

	if nonIndexed := event.Inputs.NonIndexed(); len(nonIndexed) > 0 && len(log.Data) > 0 {
		if err := nonIndexed.UnpackIntoMap(fields, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack event data: %w", err)
		}
	}

	return fields, nil
}
