package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func seedPaymentRatesMigration() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_seed_payment_rates",
		Migrate: func(tx *gorm.DB) error {
			// Nationwide defaults plus state overrides. Admins can change
			// these later through the payment-rates endpoints.
			return tx.Exec(`
				INSERT INTO payment_rates (id, state, insurance_type, rate_amount, created_at, updated_at)
				VALUES
					(gen_random_uuid(), '', 'auto', 25.00, NOW(), NOW()),
					(gen_random_uuid(), '', 'home', 30.00, NOW(), NOW()),
					(gen_random_uuid(), '', 'life', 20.00, NOW(), NOW()),
					(gen_random_uuid(), '', 'health', 22.00, NOW(), NOW()),
					(gen_random_uuid(), '', 'business', 35.00, NOW(), NOW()),
					(gen_random_uuid(), '', 'other', 20.00, NOW(), NOW()),
					(gen_random_uuid(), 'CA', 'auto', 35.00, NOW(), NOW()),
					(gen_random_uuid(), 'CA', 'home', 40.00, NOW(), NOW()),
					(gen_random_uuid(), 'CA', 'business', 45.00, NOW(), NOW()),
					(gen_random_uuid(), 'NY', 'auto', 30.00, NOW(), NOW()),
					(gen_random_uuid(), 'NY', 'home', 35.00, NOW(), NOW()),
					(gen_random_uuid(), 'TX', 'auto', 28.00, NOW(), NOW()),
					(gen_random_uuid(), 'FL', 'auto', 30.00, NOW(), NOW()),
					(gen_random_uuid(), 'FL', 'home', 32.00, NOW(), NOW())
				ON CONFLICT DO NOTHING
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DELETE FROM payment_rates").Error
		},
	}
}

func init() {
	migrationsList = append(migrationsList, seedPaymentRatesMigration())
}
