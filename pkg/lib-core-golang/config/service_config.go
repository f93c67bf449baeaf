package config

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/evgeny-myasishchev/savings-ledger/pkg/lib-core-golang/diag"
)

// ServiceConfig gives access to loaded param values
type ServiceConfig interface {
	StringParam(p StringParam) StringVal
	IntParam(p IntParam) IntVal
	BoolParam(p BoolParam) BoolVal
	DecimalParam(p DecimalParam) DecimalVal
}

type sourceBinding struct {
	params []param
	source Source
}

type serviceConfig struct {
	bindings []sourceBinding
	values   map[param]paramValue
}

func (c *serviceConfig) value(p param) paramValue {
	val, ok := c.values[p]
	if !ok {
		panic(fmt.Sprintf("Unknown parameter: %v", p))
	}
	return val
}

func (c *serviceConfig) StringParam(p StringParam) StringVal {
	return c.value(p).(StringVal)
}

func (c *serviceConfig) IntParam(p IntParam) IntVal {
	return c.value(p).(IntVal)
}

func (c *serviceConfig) BoolParam(p BoolParam) BoolVal {
	return c.value(p).(BoolVal)
}

func (c *serviceConfig) DecimalParam(p DecimalParam) DecimalVal {
	return c.value(p).(DecimalVal)
}

func (c *serviceConfig) loadInitialValues(ctx context.Context) error {
	for _, binding := range c.bindings {
		values, err := binding.source.GetParameters(ctx, binding.params)
		if err != nil {
			return errors.Wrap(err, "Failed to fetch parameters")
		}
		logger.WithData(diag.MsgData{"params": binding.params}).
			Debug(ctx, "Fetched %v (of %v requested) values", len(values), len(binding.params))
		for _, p := range binding.params {
			value, ok := values[p]
			if !ok {
				return errors.Errorf("Parameter %v not found", p)
			}
			paramVal := p.emptyValue()
			if err := paramVal.setValue(value); err != nil {
				return errors.Wrapf(err, "Failed to set parameter %v value", p)
			}
			c.values[p] = paramVal
		}
	}
	return nil
}

// ServiceConfigOpt is an option of a service config
type ServiceConfigOpt func(cfg *serviceConfig)

// WithSource binds params to the source they should be loaded from
func WithSource(binding sourceBinding) ServiceConfigOpt {
	return func(cfg *serviceConfig) {
		cfg.bindings = append(cfg.bindings, binding)
	}
}

func newServiceConfig(opts ...ServiceConfigOpt) *serviceConfig {
	cfg := &serviceConfig{values: map[param]paramValue{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load will load values of all params from bound sources
func Load(opts ...ServiceConfigOpt) (ServiceConfig, error) {
	cfg := newServiceConfig(opts...)
	ctx := diag.ContextWithRequestID(context.Background(), uuid.NewV4().String())
	logger.Info(ctx, "Loading config values")
	if err := cfg.loadInitialValues(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
