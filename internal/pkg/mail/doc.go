// Package mail sends transactional email.
//
// Use cases depend on the Mail interface. SMTP delivery is implemented with
// github.com/wneessen/go-mail, and Retrying adds backoff for transient
// relay failures.
package mail
