// Package config loads gridpager settings.
//
// Settings come from three layers, later ones winning: the defaults from New,
// a YAML file merged section by section with ShallowMergeYAML, and GRIDPAGER_*
// environment variables applied by ApplyEnv. Validate checks the result.
package config
