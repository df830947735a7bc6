// Package specimen holds the traced types exercised by the logtest demo.
package specimen

import (
	"fmt"

	"github.com/Station-Manager/logplus"
)

var log = logplus.PackageLogger()

// Logger returns the package logger, so callers can tune its level.
func Logger() *logplus.Logger {
	return log
}

// Widget carries a status value.
type Widget struct {
	status int
}

// NewWidget returns a widget with status 1.
func NewWidget() (w *Widget) {
	defer logplus.Trace().Exit(&w)
	w = &Widget{status: 1}
	log.Debug("## A")
	return w
}

func (w *Widget) String() string {
	return fmt.Sprintf("Widget(status=%d)", w.status)
}

// Status returns the current status.
func (w *Widget) Status() (status int) {
	defer logplus.Trace().Exit(&status)
	return w.status
}

// SetStatus replaces the status.
func (w *Widget) SetStatus(status int) {
	defer logplus.Trace().Exit()
	w.status = status
}

func (w *Widget) DoSomething() {
	defer logplus.Trace().Exit()
	log.Debug("## C")
}

// Close releases the widget.
func (w *Widget) Close() (err error) {
	defer logplus.Trace().Exit(&err)
	log.Debug("## B")
	return nil
}

// SpecialWidget is a Widget built and released through its own steps.
type SpecialWidget struct {
	*Widget
}

// NewSpecialWidget logs its own step and then builds the embedded Widget.
func NewSpecialWidget() (s *SpecialWidget) {
	defer logplus.Trace().Exit(&s)
	log.Debug("## D")
	s = &SpecialWidget{Widget: NewWidget()}
	return s
}

// Close logs its own step and then closes the embedded Widget.
func (s *SpecialWidget) Close() (err error) {
	defer logplus.Trace().Exit(&err)
	log.Debug("## E")
	return s.Widget.Close()
}
