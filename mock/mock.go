// Package mock provides test doubles for tableagent interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/tableagent/tableagent"
)

// Interface compliance checks.
var (
	_ tableagent.Provider = (*Provider)(nil)
	_ tableagent.Store    = (*Store)(nil)
)

// Provider is a test double for tableagent.Provider.
// Set CompleteFn before calling Complete.
type Provider struct {
	CompleteFn func(ctx context.Context, req tableagent.Request) (tableagent.AssistantMessage, error)
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req tableagent.Request) (tableagent.AssistantMessage, error) {
	return p.CompleteFn(ctx, req)
}

// Store is a test double for tableagent.Store.
// Set the function fields for the methods you need; unset methods return
// zero values.
type Store struct {
	LoadFn     func(ctx context.Context, req tableagent.LoadRequest) ([]tableagent.Table, error)
	QueryFn    func(ctx context.Context, sql string) (*tableagent.Result, error)
	TablesFn   func(ctx context.Context) ([]string, error)
	DescribeFn func(ctx context.Context, table string) ([]tableagent.Column, error)
	CloseFn    func() error
}

// Load delegates to LoadFn.
func (s *Store) Load(ctx context.Context, req tableagent.LoadRequest) ([]tableagent.Table, error) {
	if s.LoadFn == nil {
		return nil, nil
	}
	return s.LoadFn(ctx, req)
}

// Query delegates to QueryFn.
func (s *Store) Query(ctx context.Context, sql string) (*tableagent.Result, error) {
	if s.QueryFn == nil {
		return &tableagent.Result{}, nil
	}
	return s.QueryFn(ctx, sql)
}

// Tables delegates to TablesFn.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	if s.TablesFn == nil {
		return nil, nil
	}
	return s.TablesFn(ctx)
}

// Describe delegates to DescribeFn.
func (s *Store) Describe(ctx context.Context, table string) ([]tableagent.Column, error) {
	if s.DescribeFn == nil {
		return nil, nil
	}
	return s.DescribeFn(ctx, table)
}

// Close delegates to CloseFn.
func (s *Store) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
