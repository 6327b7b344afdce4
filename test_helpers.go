package main

import (
	"context"
	"fmt"

	"csv2sql/schemagen"
)

// MockSampleReader is a mock implementation of SampleReader for testing
type MockSampleReader struct {
	ReadSamplesFunc func(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error)

	// Track calls for verification
	ReadSamplesCalled bool
	LastPath          string
	LastOpts          schemagen.SampleOptions
}

func (m *MockSampleReader) ReadSamples(path string, opts schemagen.SampleOptions) ([]schemagen.ColumnSample, error) {
	m.ReadSamplesCalled = true
	m.LastPath = path
	m.LastOpts = opts
	if m.ReadSamplesFunc != nil {
		return m.ReadSamplesFunc(path, opts)
	}
	return nil, fmt.Errorf("mock not configured")
}

// MockMappingReader is a mock implementation of MappingReader for testing
type MockMappingReader struct {
	LoadMappingsFunc func(path string) ([]schemagen.ColumnMapping, error)

	LoadMappingsCalled bool
	LastPath           string
}

func (m *MockMappingReader) LoadMappings(path string) ([]schemagen.ColumnMapping, error) {
	m.LoadMappingsCalled = true
	m.LastPath = path
	if m.LoadMappingsFunc != nil {
		return m.LoadMappingsFunc(path)
	}
	return nil, fmt.Errorf("mock not configured")
}

// MockSQLExecutor is a mock implementation of SQLExecutor for testing
type MockSQLExecutor struct {
	ConnectFunc func(ctx context.Context) error
	ExecFunc    func(ctx context.Context, statement string) error
	CloseFunc   func() error

	ConnectCalled bool
	ExecCalled    bool
	CloseCalled   bool
	Statements    []string
}

func (m *MockSQLExecutor) Connect(ctx context.Context) error {
	m.ConnectCalled = true
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

func (m *MockSQLExecutor) Exec(ctx context.Context, statement string) error {
	m.ExecCalled = true
	m.Statements = append(m.Statements, statement)
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, statement)
	}
	return nil
}

func (m *MockSQLExecutor) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
