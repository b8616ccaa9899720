// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/reelmatch/internal/validation"
)

// Validate checks the configuration for errors.
// Field constraints live in struct tags. Cross-field rules that tags cannot
// express are checked here.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateTranslate(); err != nil {
		return err
	}

	return c.validateCache()
}

// validateTranslate requires an endpoint only when translation is enabled.
func (c *Config) validateTranslate() error {
	if c.Translate.Enabled && c.Translate.URL == "" {
		return errors.New("translate.url is required when translate.enabled is true")
	}
	return nil
}

// validateCache keeps the cache directory away from the panel file itself.
func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Path == c.Data.Path {
		return fmt.Errorf("cache.path must differ from data.path (%s)", c.Data.Path)
	}
	return nil
}
