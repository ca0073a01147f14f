package logging

import "go.uber.org/zap"

// New builds the production logger shared by the services. The service
// name rides along on every entry so one log stream can be split.
func New(service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", service)), nil
}
