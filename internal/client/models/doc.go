// Package models defines the resources the client consumes from the AfterYou
// backend together with the client-side validation of forms submitted back.
//
// The backend is the source of truth for every entity here; the client only
// holds short-lived copies.
package models
