package flag

import "testing"

func TestRegistryBuiltinKinds(t *testing.T) {
	r := NewRegistry()

	f, err := r.Build("email", "my-email", nil)
	if err != nil {
		t.Fatalf("Build(email) returned error: %v", err)
	}
	if _, ok := f.(*PatternFlagger); !ok {
		t.Errorf("Build(email) returned %T, want *PatternFlagger", f)
	}

	f, err = r.Build("ipv4", "my-ipv4", nil)
	if err != nil {
		t.Fatalf("Build(ipv4) returned error: %v", err)
	}
	if _, ok := f.(*PatternFlagger); !ok {
		t.Errorf("Build(ipv4) returned %T, want *PatternFlagger", f)
	}

	f, err = r.Build("disabled", "off", nil)
	if err != nil {
		t.Fatalf("Build(disabled) returned error: %v", err)
	}
	if _, ok := f.(*DisabledFlagger); !ok {
		t.Errorf("Build(disabled) returned %T, want *DisabledFlagger", f)
	}
}

func TestRegistryKeywordRequiresParam(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Build("keyword", "creds", nil); err == nil {
		t.Error("Build(keyword) with no params should fail")
	}
	if _, err := r.Build("keyword", "creds", map[string]string{"keywords": ""}); err == nil {
		t.Error("Build(keyword) with empty keywords param should fail")
	}

	f, err := r.Build("keyword", "creds", map[string]string{"keywords": "password, secret , api key"})
	if err != nil {
		t.Fatalf("Build(keyword) with valid params returned error: %v", err)
	}
	kf, ok := f.(*KeywordFlagger)
	if !ok {
		t.Fatalf("Build(keyword) returned %T, want *KeywordFlagger", f)
	}
	if len(kf.keywords) != 3 {
		t.Errorf("expected 3 parsed keywords, got %d: %v", len(kf.keywords), kf.keywords)
	}
}

func TestRegistryUnknownKind(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build("nonexistent", "x", nil); err == nil {
		t.Error("Build with an unregistered kind should return an error")
	}
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register("disabled", factoryFunc(buildEmailFlagger))

	f, err := r.Build("disabled", "x", nil)
	if err != nil {
		t.Fatalf("Build after Register override returned error: %v", err)
	}
	if _, ok := f.(*PatternFlagger); !ok {
		t.Errorf("expected Register to replace the factory for an existing kind, got %T", f)
	}
}
