// Package mocks provides mock implementations of the auth ports for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(grant, nil)
package mocks

// Generate mock for AuthAPI interface from internal/ports package.
// This creates MockAuthAPI with methods: Register, Login, Profile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/hackathon/inventory-web/internal/ports AuthAPI

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/hackathon/inventory-web/internal/ports SessionStore
