// Package domain contains the core business entities for the legal
// retrieval pipeline: documents, chunks, index entries, queries and
// answers. Types here carry no infrastructure dependencies.
package domain
