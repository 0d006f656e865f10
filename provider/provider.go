// Package provider implements translation backends for teamtl.
package provider

import "github.com/ZaguanLabs/teamtl"

// Provider is an alias to the main package interface for convenience.
type Provider = teamtl.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = teamtl.TranslateRequest
