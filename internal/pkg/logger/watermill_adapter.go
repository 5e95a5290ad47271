package logger

import "github.com/ThreeDotsLabs/watermill"

// WatermillAdapter routes watermill's internal logs into an ILogger
type WatermillAdapter struct {
	log    ILogger
	fields watermill.LogFields
	debug  bool
}

func NewWatermillAdapter(log ILogger, debug bool) *WatermillAdapter {
	return &WatermillAdapter{log: log, debug: debug}
}

func (a *WatermillAdapter) details(fields watermill.LogFields) map[string]interface{} {
	merged := a.fields.Add(fields)
	out := make(map[string]interface{}, len(merged))
	for k, v := range merged {
		out[k] = v
	}
	return out
}

func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	d := a.details(fields)
	d["error"] = err.Error()
	a.log.Error("EVENTS", msg, d)
}

func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info("EVENTS", msg, a.details(fields))
}

func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	if a.debug {
		a.log.Debug("EVENTS", msg, a.details(fields))
	}
}

func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {}

func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{log: a.log, fields: a.fields.Add(fields), debug: a.debug}
}
