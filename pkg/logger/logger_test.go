package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSlogLoggerLevels(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	l := newSlogLogger(&buf)

	l.Debugf("hidden %d", 1)
	c.Assert(buf.Len(), qt.Equals, 0)

	c.Assert(l.SetLevel("debug"), qt.IsNil)
	l.Debugf("shown %d", 2)

	var entry map[string]any
	c.Assert(json.Unmarshal(buf.Bytes(), &entry), qt.IsNil)
	c.Assert(entry["msg"], qt.Equals, "shown 2")
	c.Assert(entry["level"], qt.Equals, "DEBUG")
}

func TestSlogLoggerErrorf(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	l := newSlogLogger(&buf)
	l.Errorf(errors.New("boom"), "failed to %s", "insert")

	var entry map[string]any
	c.Assert(json.Unmarshal(buf.Bytes(), &entry), qt.IsNil)
	c.Assert(entry["msg"], qt.Equals, "failed to insert")
	c.Assert(entry["error"], qt.Equals, "boom")
}

func TestSetLevelUnknown(t *testing.T) {
	c := qt.New(t)

	err := NewNopLogger().SetLevel("verbose")
	c.Assert(err, qt.ErrorMatches, `unknown log level "verbose"`)
}
