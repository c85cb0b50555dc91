package reconcile

// Config holds the sync settings of a reconcile run.
type Config struct {
	// Profile names the adapter's naming and equivalence profile.
	Profile string `mapstructure:"profile" default:"classic"`
	// BatchSize is the number of records per create/update batch.
	BatchSize int `mapstructure:"batch_size" default:"20"`
	// UpdateConcurrency bounds concurrently dispatched update batches.
	UpdateConcurrency int `mapstructure:"update_concurrency" default:"4"`
	// AllowEmptySource permits orphan purge when the source is empty.
	AllowEmptySource bool `mapstructure:"allow_empty_source" default:"false"`
	// VerifyBeforeCreate re-checks each create candidate before batching.
	VerifyBeforeCreate bool `mapstructure:"verify_before_create" default:"true"`
	// PurgeDuplicates deletes extra targets sharing a key.
	PurgeDuplicates bool `mapstructure:"purge_duplicates" default:"true"`
	// PurgeOrphans deletes targets absent from the source.
	PurgeOrphans bool `mapstructure:"purge_orphans" default:"true"`
}

// Options converts the configuration into reconcile options.
func (c Config) Options() ReconcileOptions {
	return ReconcileOptions{
		DoCreate:           true,
		DoUpdate:           true,
		DoPurgeDuplicates:  c.PurgeDuplicates,
		DoPurgeOrphans:     c.PurgeOrphans,
		AllowEmptySource:   c.AllowEmptySource,
		VerifyBeforeCreate: c.VerifyBeforeCreate,
	}
}
