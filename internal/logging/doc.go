// Package logging provides implementations of the rootmodel.Logger interface:
// a console logger for humans, a zap-backed JSON logger for pipelines and a
// null logger for library use and tests.
package logging
