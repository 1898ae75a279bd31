// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It runs the terminal UI next to the background workers and tears both
// down together: leaving the UI stops the workers, and a failing worker
// closes the UI.
package client
