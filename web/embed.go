// Package web embeds the form and dashboard UI so both binaries ship as
// a single file.
package web

import "embed"

// TemplatesFS holds the server-rendered HTML templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the PU row script.
//
//go:embed static/*
var StaticFS embed.FS
