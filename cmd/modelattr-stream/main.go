// Command modelattr-stream is an AWS Lambda function that reports the
// attribute changes of models stored in DynamoDB from their table streams.
//
// It is configured through MODELATTR_ environment variables:
//
//	MODELATTR_SCHEMA_FILE             schema definition file (required)
//	MODELATTR_LOG_LEVEL               log level, default info
//	MODELATTR_STREAM_EVENT_NAMES      comma separated event names, default INSERT,MODIFY,REMOVE
//	MODELATTR_STREAM_FAIL_ON_INVALID  fail the batch on records that don't fit the schema
//	MODELATTR_METRICS_ENABLED         register stream collectors, default true
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jacentio/modelattr/internal/config"
	"github.com/jacentio/modelattr/internal/logging"
	"github.com/jacentio/modelattr/schemadef"
	"github.com/jacentio/modelattr/stream"
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Output:  os.Stdout,
		Service: "modelattr-stream",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create logger")
	}

	if cfg.Schema.File == "" {
		logger.Fatal().Msg("MODELATTR_SCHEMA_FILE is not set")
	}
	registry, err := schemadef.Load(cfg.Schema.File)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.Schema.File).Msg("Failed to load schema")
	}
	logger.Info().Strs("models", registry.Names()).Msg("Schema loaded")

	handler := stream.NewHandler(registry, stream.LogSink(logger), &logger)
	handler.SetConfig(stream.Config{
		EventNames:    cfg.Stream.EventNames,
		FailOnInvalid: cfg.Stream.FailOnInvalid,
	})
	if cfg.Metrics.Enabled {
		handler.SetMetrics(stream.NewMetrics(prometheus.DefaultRegisterer))
	}

	lambda.Start(handler.HandleChanges)
}
