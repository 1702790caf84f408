package predictionRepository

import (
	"context"
	"time"

	"FishBiomass/internal/entity"
	contextPkg "FishBiomass/pkg/context"
	"FishBiomass/pkg/utils"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type postgresRepository struct {
	q     SQLExecutor
	close func() error
	utils utils.IUtils
	log   *logrus.Logger
}

// NewPostgres stores observations in the prediction_observations table,
// creating it when it does not exist yet.
func NewPostgres(ctx context.Context, db *sqlx.DB, u utils.IUtils, log *logrus.Logger) (Repository, error) {
	if _, err := db.ExecContext(ctx, queryCreateObservationTable); err != nil {
		log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to create prediction_observations table")
		return nil, err
	}

	return &postgresRepository{
		q:     db,
		close: db.Close,
		utils: u,
		log:   log,
	}, nil
}

func (r *postgresRepository) AppendObservation(c context.Context, result entity.PredictionResult) error {
	requestID := contextPkg.GetRequestID(c)

	id, err := r.utils.NewULIDFromTimestamp(result.Timestamp)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate observation ID")
		return err
	}

	argsKV := map[string]interface{}{
		"id":                 id,
		"observed_at":        result.Timestamp.UTC().Truncate(time.Microsecond),
		"source":             string(result.Source),
		"tank_id":            result.TankID,
		"predicted_weight_g": result.PredictedWeightG,
		"quantity":           result.Quantity,
		"biomass_kg":         result.BiomassKg,
	}

	query, args, err := sqlx.Named(queryInsertObservation, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for AppendObservation")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when appending observation")
		return err
	}

	return nil
}

func (r *postgresRepository) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
