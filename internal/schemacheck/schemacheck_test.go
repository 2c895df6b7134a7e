package schemacheck

import "testing"

const pairSchema = `{
	"type": "object",
	"required": ["term"],
	"properties": {"term": {"type": "string"}}
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"term": "atp"}`, false},
		{"missing field", `{}`, true},
		{"wrong type", `{"term": 3}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		err := Validate("test-pair", []byte(pairSchema), []byte(tt.raw))
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestCompile_Caches(t *testing.T) {
	a, err := Compile("test-cache", []byte(pairSchema))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := Compile("test-cache", []byte(`not even json`))
	if err != nil {
		t.Fatalf("cached compile: %v", err)
	}
	if a != b {
		t.Error("expected cached schema instance")
	}
}

func TestCompile_BadDefinition(t *testing.T) {
	if _, err := Compile("test-bad", []byte(`{"type": 12}`)); err == nil {
		t.Fatal("expected compile error")
	}
}
