// Package mocks provides mock implementations of the backend ports.
//
// Mocks are generated with go.uber.org/mock (gomock). To regenerate after an
// interface change, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockBankingAPI(ctrl)
//	api.EXPECT().WhoAmI(gomock.Any()).Return(identity, nil)
package mocks

// Generate mock for BankingAPI interface from internal/ports package.
// This creates MockBankingAPI with one method per backend endpoint.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=banking_api_mock.go github.com/target/banksim-ui/internal/ports BankingAPI
