package efd

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRegistryRegisterAndConnect(t *testing.T) {
	r := NewRegistry()
	err := r.Register("local_efd", func(ctx context.Context, cfg Config) (*Client, error) {
		return Connect(ctx, "local_efd", Config{Executor: &fakeExecutor{}})
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	client, err := r.Connect(context.Background(), "local_efd", Config{})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if client.Name() != "local_efd" {
		t.Errorf("Name() = %q, want local_efd", client.Name())
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	f := func(ctx context.Context, cfg Config) (*Client, error) { return nil, nil }
	if err := r.Register("x", f); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register("x", f); !errors.Is(err, ErrDuplicateDeployment) {
		t.Errorf("second Register() error = %v, want ErrDuplicateDeployment", err)
	}
}

func TestRegistryUnknownDeployment(t *testing.T) {
	r := NewRegistry()
	_, err := r.Connect(context.Background(), "nope", Config{})
	if !errors.Is(err, ErrUnknownDeployment) {
		t.Errorf("error = %v, want ErrUnknownDeployment", err)
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	want := []string{"base_efd", "idf_efd", "summit_efd", "tucson_teststand_efd", "usdf_efd"}
	if got := DefaultRegistry.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
