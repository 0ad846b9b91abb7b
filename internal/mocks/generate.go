package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/ledger --output domain/ledger --outpkg ledgermock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AccountRepository --dir ../domain/economy --output domain/economy --outpkg economymock --filename account_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PurchaseRepository --dir ../domain/economy --output domain/economy --outpkg economymock --filename purchase_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Extractor --dir ../domain/extraction --output domain/extraction --outpkg extractionmock --filename extractor_mock.go
