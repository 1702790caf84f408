package predictionRepository

const (
	queryCreateObservationTable = `
		CREATE TABLE IF NOT EXISTS prediction_observations (
			id                 VARCHAR(26) PRIMARY KEY,
			observed_at        TIMESTAMPTZ NOT NULL,
			source             VARCHAR(16) NOT NULL,
			tank_id            VARCHAR(64) NOT NULL,
			predicted_weight_g DOUBLE PRECISION NOT NULL,
			quantity           INTEGER NOT NULL,
			biomass_kg         DOUBLE PRECISION NOT NULL
		)
	`

	queryInsertObservation = `
		INSERT INTO prediction_observations (
			id,
			observed_at,
			source,
			tank_id,
			predicted_weight_g,
			quantity,
			biomass_kg
		) VALUES (
			:id,
			:observed_at,
			:source,
			:tank_id,
			:predicted_weight_g,
			:quantity,
			:biomass_kg
		)
	`
)
