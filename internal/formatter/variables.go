package formatter

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// VariableContext contains the data template variables resolve against.
type VariableContext struct {
	UnreadCount int
	TotalCount  int
	ReadCount   int

	// Unread counts per type.
	InfoCount    int
	WarningCount int
	ErrorCount   int
	SuccessCount int

	// Newest unread notification.
	LatestTitle   string
	LatestMessage string
	LatestCity    string

	HasUnread bool

	// HighestType is the most severe type among unread notifications, empty if none.
	HighestType domain.Type
}

// Variables lists every name a template may use, in documentation order.
var Variables = []string{
	"unread-count",
	"total-count",
	"read-count",
	"info-count",
	"warning-count",
	"error-count",
	"success-count",
	"latest-title",
	"latest-message",
	"latest-city",
	"has-unread",
	"highest-type",
	"highest-severity",
}

// IsVariable reports whether name is a known template variable.
func IsVariable(name string) bool {
	return slices.Contains(Variables, name)
}

// severity ranks types from most (1) to least severe.
var severity = map[domain.Type]int{
	domain.TypeError:   1,
	domain.TypeWarning: 2,
	domain.TypeInfo:    3,
	domain.TypeSuccess: 4,
}

// BuildContext summarizes an owner's notifications. The list is expected
// newest first, as the store returns it.
func BuildContext(notifs []domain.Notification) VariableContext {
	ctx := VariableContext{TotalCount: len(notifs)}
	for _, n := range notifs {
		if n.Read {
			ctx.ReadCount++
			continue
		}
		t := n.Type.OrDefault()
		if !ctx.HasUnread {
			ctx.HasUnread = true
			ctx.LatestTitle = n.Title
			ctx.LatestMessage = n.Message
			ctx.LatestCity = n.City
		}
		ctx.UnreadCount++
		switch t {
		case domain.TypeInfo:
			ctx.InfoCount++
		case domain.TypeWarning:
			ctx.WarningCount++
		case domain.TypeError:
			ctx.ErrorCount++
		case domain.TypeSuccess:
			ctx.SuccessCount++
		}
		if ctx.HighestType == "" || severity[t] < severity[ctx.HighestType] {
			ctx.HighestType = t
		}
	}
	return ctx
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return variableResolver{}
}

func (variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	switch varName {
	case "unread-count":
		return strconv.Itoa(ctx.UnreadCount), nil
	case "total-count":
		return strconv.Itoa(ctx.TotalCount), nil
	case "read-count":
		return strconv.Itoa(ctx.ReadCount), nil
	case "info-count":
		return strconv.Itoa(ctx.InfoCount), nil
	case "warning-count":
		return strconv.Itoa(ctx.WarningCount), nil
	case "error-count":
		return strconv.Itoa(ctx.ErrorCount), nil
	case "success-count":
		return strconv.Itoa(ctx.SuccessCount), nil
	case "latest-title":
		return ctx.LatestTitle, nil
	case "latest-message":
		return ctx.LatestMessage, nil
	case "latest-city":
		return ctx.LatestCity, nil
	case "has-unread":
		return strconv.FormatBool(ctx.HasUnread), nil
	case "highest-type":
		return string(ctx.HighestType), nil
	case "highest-severity":
		// 0 when nothing is unread.
		return strconv.Itoa(severity[ctx.HighestType]), nil
	default:
		return "", fmt.Errorf("unknown variable: %s", varName)
	}
}
