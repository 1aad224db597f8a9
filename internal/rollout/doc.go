// Package rollout implements multi-step deployment workflows: revision
// history, rollback to a prior revision, pause, resume and restart.
//
// Revisions are read from the replica sets a deployment owns. Every workflow
// validates its input before the first write, and no mutation is retried.
package rollout
