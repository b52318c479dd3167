// Package models defines domain entities for the VibeCatch recognition core.
//
// The package contains two categories of types:
//
// 1. Value objects passed between components:
//   - [Track] : Identified song metadata; playlist identity is the (Title, Artist) pair
//   - [Playlist] : Ordered, append-only track list under one mood category
//
// 2. Persistent entities with lifecycle management:
//   - [Recognition] : One completed recognition attempt, matched or not
//
// Persistent entities implement the [Model] interface providing ID access,
// timestamps, and validation.
package models
