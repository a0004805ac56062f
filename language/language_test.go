//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedTable(t *testing.T) {
	table := Supported()
	assert.Len(t, table, len(supportedCodes))
	assert.Equal(t, "English", table["en"])
	assert.Equal(t, "Spanish", table["es"])
	for code, name := range table {
		assert.NotEmpty(t, name, "display name for %q", code)
	}
}

func TestSupportedReturnsCopy(t *testing.T) {
	table := Supported()
	table["en"] = "mutated"
	assert.Equal(t, "English", Supported()["en"])
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("EN"))
	assert.True(t, IsSupported("es-MX"))
	assert.False(t, IsSupported("xx"))
	assert.False(t, IsSupported(""))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "en", Canonical("en-US"))
	assert.Equal(t, "zh", Canonical("zh-Hans"))
	assert.Equal(t, "es", Canonical(" ES "))
	assert.Equal(t, "", Canonical(""))
}
