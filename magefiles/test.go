// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, cover, smoke).
type Test mg.Namespace

const coverProfile = "coverage.out"

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Cover runs all tests with a coverage profile and prints the summary.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Smoke builds the binary and runs a table through create, add, sort,
// export and drop in a scratch directory, for both backends.
func (Test) Smoke() error {
	mg.Deps(Build)
	bin, err := filepath.Abs(filepath.Join(binaryDir, binaryName))
	if err != nil {
		return err
	}
	for _, backend := range []string{"file", "bolt"} {
		if err := smoke(bin, backend); err != nil {
			return fmt.Errorf("smoke %s: %w", backend, err)
		}
	}
	return nil
}

func smoke(bin, backend string) error {
	dir, err := os.MkdirTemp("", "ivory-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	env := map[string]string{"IVORY_BACKEND": backend}
	base := []string{
		"--config-dir", filepath.Join(dir, "config"),
		"--data-dir", filepath.Join(dir, "data"),
	}
	steps := [][]string{
		{"init"},
		{"create", "people"},
		{"column", "add", "people", "age", "int64"},
		{"add", "people", "carol", "35"},
		{"add", "people", "alice", "30"},
		{"add", "people", "bob", "25"},
		{"sort", "people", "age"},
		{"export", "people", filepath.Join(dir, "people.db")},
	}
	for _, step := range steps {
		if err := sh.RunWithV(env, bin, append(base, step...)...); err != nil {
			return err
		}
	}

	out, err := sh.OutputWith(env, bin, append(base, "column", "show", "people", "id")...)
	if err != nil {
		return err
	}
	if got := strings.Fields(out); strings.Join(got, ",") != "bob,alice,carol" {
		return fmt.Errorf("sorted ids = %v", got)
	}
	return sh.RunWithV(env, bin, append(base, "drop", "people")...)
}
