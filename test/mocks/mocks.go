// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// Regenerate with `go generate ./test/mocks`.
package mocks

//go:generate mockgen -source=../../internal/core/ports/inventory_service.go -destination=inventory_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/text_generator.go -destination=text_generator_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/snapshot_store.go -destination=snapshot_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/file_storage.go -destination=file_storage_mock.go -package=mocks
