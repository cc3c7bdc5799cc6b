package bot

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"pocat/internal/configurator"
)

// Callback data layout: "<action>[:<field>[:<value>]]". Telegram caps it at
// 64 bytes, catalog ids stay well below that.
const (
	actionSet    = "set"
	actionAsk    = "ask"
	actionNext   = "next"
	actionBack   = "back"
	actionSubmit = "submit"
	actionQuote  = "quote"
	actionReset  = "reset"
)

// textFields can be filled in by typing a message.
var textFields = []configurator.Field{
	configurator.FieldPageCount,
	configurator.FieldCopies,
	configurator.FieldSpineText,
	configurator.FieldCoverNote,
}

var errBadCallback = errors.New("malformed callback data")

type callback struct {
	action string
	field  configurator.Field
	value  string
}

func setData(field configurator.Field, value string) string {
	return actionSet + ":" + string(field) + ":" + value
}

func askData(field configurator.Field) string {
	return actionAsk + ":" + string(field)
}

func parseCallback(data string) (callback, error) {
	parts := strings.SplitN(data, ":", 3)

	switch parts[0] {
	case actionNext, actionBack, actionSubmit, actionQuote, actionReset:
		if len(parts) != 1 {
			return callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		return callback{action: parts[0]}, nil

	case actionAsk:
		if len(parts) != 2 || !slices.Contains(textFields, configurator.Field(parts[1])) {
			return callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		return callback{action: actionAsk, field: configurator.Field(parts[1])}, nil

	case actionSet:
		if len(parts) != 3 || !slices.Contains(configurator.Fields(), configurator.Field(parts[1])) {
			return callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		return callback{action: actionSet, field: configurator.Field(parts[1]), value: parts[2]}, nil
	}

	return callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
}
