package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/aquachain/etchash/common/log"
)

// with with NO_LOGSYNC=off or NO_LOGSYNC= to see the difference
func TestConcurrentWrites(t *testing.T) {
	logger := log.New("module", "log_test")
	logger.Warn("mic test 1 2", "NoSync", log.NoSync)
	var wg sync.WaitGroup
	limit := 10
	wg.Add(limit)
	for i := 0; i < limit; i++ {
		i := i
		go func() {
			log.Warn("mic test 1 2", "NoSync", log.NoSync, "t", i)
			wg.Done()
		}()
	}
	wg.Wait()
}

func TestChildContextAndFilter(t *testing.T) {
	var buf bytes.Buffer
	h := log.LvlFilterHandler(log.LvlInfo, log.StreamHandler(&buf, log.LogfmtFormat()))

	logger := log.New("module", "etchash")
	logger.SetHandler(h)
	logger.Debug("hidden", "epoch", 1)
	logger.Info("cache generated", "epoch", 7, "err", errors.New("none"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `module="etchash"`)
	require.Contains(t, out, "epoch=7")
	require.Contains(t, out, `err="none"`)
	require.Equal(t, 1, strings.Count(out, "\n"))
}

func TestJsonFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.SetHandler(log.StreamHandler(&buf, log.JsonFormatEx(false, true)))
	logger.Warn("odd", "items", 262139, "seed", []byte{0xab})

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	require.Equal(t, "odd", m["msg"])
	require.Equal(t, "warn", m["lvl"])
	require.EqualValues(t, 262139, m["items"])
	require.Equal(t, "0xab", m["seed"])
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]log.Lvl{
		"trace": log.LvlTrace, "4": log.LvlDebug, "": log.LvlInfo, "warn": log.LvlWarn, "0": log.LvlCrit,
	} {
		got, err := log.ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
	_, err := log.ParseLevel("loud")
	require.Error(t, err)
}

func TestPrintf(t *testing.T) {
	oldhandler := log.Root().GetHandler()
	log.ResetForTesting()
	log.Printf("test %d %d", 1, 2)
	log.Error("hello error level")
	log.Warn("hello warn level")
	log.Info("hello info level")
	log.Debug("hello debug level")
	log.Trace("hello trace level")
	log.Root().SetHandler(oldhandler)
}
