// Copyright 2025 The go-daofund Authors
// This file is part of the go-daofund library.
//
// The go-daofund library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-daofund library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-daofund library. If not, see <http://www.gnu.org/licenses/>.

package storage

// Config defines the ledger database configuration.
type Config struct {
	Path     string // database directory
	Cache    int    // block cache size in MiB
	Handles  int    // open file handles
	ReadOnly bool   // open without write access
}

// DefaultConfig returns the default ledger database configuration for the
// given directory.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:    path,
		Cache:   16,
		Handles: 64,
	}
}
