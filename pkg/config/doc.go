// Package config provides configuration loading for the akademy backend.
//
// Each concern owns one file: database (Postgres connection), strapi (CMS
// source API), migration (pipeline policy knobs), email (SMTP for notices).
// Configuration structs carry cleanenv env tags and are loaded with
// cleanenv.ReadEnv from the command entrypoints; the helpers in common.go
// cover the places where a struct tag is not enough.
package config
