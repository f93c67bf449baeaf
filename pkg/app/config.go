package app

import (
	"github.com/evgeny-myasishchev/savings-ledger/config"
)

// LoadConfig will load and initialize config
func LoadConfig() (*config.AppConfig, error) {
	return config.LoadAppConfig()
}
