package repositories

// RepositoryProvider bundles the storage ports handed to NewServiceContainer.
type RepositoryProvider struct {
	ExchangeRateRepo ExchangeRateRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	UserRepo         UserRepositoryFacade
	SettingsRepo     SettingsRepositoryFacade
}
