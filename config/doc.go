// Package config loads and validates flatkit application configuration.
//
// LoadConfig uses Viper to read the application's YAML and godotenv to read
// its .env file. For an app named "ingest" the YAML is the first of
// ingest.yml, config/ingest.yml, config.yml and config/config.yml, unless
// INGEST_CONFIG or WithConfigFile names one.
//
// Every leaf of Config can then be overridden from the environment. The
// variable name is the upper-cased key path, optionally prefixed with the app
// name: pipeline.batch_size reads INGEST_PIPELINE_BATCH_SIZE first and then
// PIPELINE_BATCH_SIZE.
//
// # Usage
//
//	cfg, err := config.Load("ingest")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.FlattenOptions(ctx)
//	if err != nil {
//	    return err
//	}
//	rows := flatten.Slices(data, opts...)
//
//	runOpts, err := cfg.RunOptions()
//	if err != nil {
//	    return err
//	}
//	err = pipeline.Drain(p, sink, runOpts...).Run(ctx)
package config
