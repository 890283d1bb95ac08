// Package validator validates usecase inputs through struct tags.
//
// Besides the go-playground built-ins it registers:
//
//	identity  an email-shaped sign-in identity
package validator
