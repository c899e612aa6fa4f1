// Package config loads watplan configuration.
//
// Values are layered from lowest to highest precedence:
//  1. defaults (New)
//  2. a YAML file, if a path is given or WATPLAN_CONFIG is set
//  3. environment variables with the WATPLAN_ prefix (WATPLAN_GROUP_ID -> group_id)
//
// Lesson block times and type labels are not configuration; they are fixed tables
// in package lesson.
package config
