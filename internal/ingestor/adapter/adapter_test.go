package adapter

import (
	"strconv"
	"testing"

	"equity-ingestor/pkg/logger"

	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func fp(v float64) *float64 {
	return &v
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
