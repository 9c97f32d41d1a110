package common

const (
	// RedisStreamIngestionRunCompleted receives one entry per finished
	// ingestion run with the serialized run summary.
	RedisStreamIngestionRunCompleted = "ingestion.run.completed"

	RedisStreamMaxLen = 1000
)
