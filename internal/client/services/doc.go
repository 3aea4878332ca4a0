// Package services holds the controllers behind each screen of the client.
//
// A controller owns the copy of backend data its screen shows, the inline
// alert text, and any polling task it started. State is guarded by a mutex;
// when two responses race the last one wins. Controllers never cache across
// screens: a new screen builds a new controller.
package services
