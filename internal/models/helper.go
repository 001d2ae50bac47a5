package models

// AllModels lists every persisted model in dependency order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Test{},
		&Question{},
		&Option{},
		&Person{},
		&Submission{},
		&Answer{},
		&Result{},
	}
}
