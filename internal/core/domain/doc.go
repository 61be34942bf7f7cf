// Package domain contains the core business entities and rules for the
// folderctx context engine. It has no dependencies on adapters or
// infrastructure; everything here is plain data and pure logic.
package domain
