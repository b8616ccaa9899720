// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config provides configuration management for reelmatch.

Configuration is layered with Koanf v2. Later layers override earlier ones:

 1. Built-in defaults
 2. YAML file (the -config flag, CONFIG_PATH, or reelmatch.yaml in the working directory)
 3. Environment variables

# Example File

	data:
	  path: data.csv
	cache:
	  enabled: true
	  path: .reelmatch-cache
	translate:
	  enabled: true
	  url: http://localhost:5000
	  target: en
	plot:
	  api_key: your-omdb-key
	recommend:
	  workers: 4
	logging:
	  level: info
	  format: console

# Environment Variables

Only the names listed in envMappings are read, for example:

  - REELMATCH_DATA, DATA_PATH: data.path
  - CACHE_ENABLED, CACHE_PATH: cache.*
  - TRANSLATE_ENABLED, TRANSLATE_URL, TRANSLATE_API_KEY, TRANSLATE_TARGET: translate.*
  - OMDB_API_KEY, OMDB_URL, OMDB_TIMEOUT: plot.*
  - RECOMMEND_WORKERS: recommend.workers
  - METRICS_TEXTFILE_PATH: metrics.textfile_path
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER: logging.*

Durations accept Go syntax such as "10s" or "1m30s".
*/
package config
