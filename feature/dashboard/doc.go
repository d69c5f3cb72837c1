// Package dashboard reports headline counts for the CRM home screen.
package dashboard
