package handlers

import (
	"fmt"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain tags used in request bindings to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("currency", validateCurrency); err != nil {
		return fmt.Errorf("failed to register currency validator: %w", err)
	}
	if err := v.RegisterValidation("txtype", validateTransactionType); err != nil {
		return fmt.Errorf("failed to register txtype validator: %w", err)
	}
	return nil
}

// validateCurrency accepts three-letter codes in any case.
func validateCurrency(fl validator.FieldLevel) bool {
	return domain.IsValidCurrencyCode(domain.NormalizeCurrency(fl.Field().String()))
}

func validateTransactionType(fl validator.FieldLevel) bool {
	_, err := domain.ParseTransactionType(fl.Field().String())
	return err == nil
}
