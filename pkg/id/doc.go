// Package id generates lexicographically sortable identifiers.
//
// Health probes use [NewULID] to give each run its own storage key:
//
//	key := "_health." + id.NewULID()
package id
