package text

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases", input: "MERCADO XYZ", want: "mercado xyz"},
		{name: "strips accents", input: "Açaí do Zé", want: "acai do ze"},
		{name: "trims whitespace", input: "  padaria  ", want: "padaria"},
		{name: "keeps digits and punctuation", input: "PAG*Jose_Silva 42", want: "pag*jose_silva 42"},
		{name: "cedilla and tilde", input: "SÃO JOÃO AÇOUGUE", want: "sao joao acougue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUsefulLength(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"A B", 2},
		{"***", 0},
		{"ifood", 5},
		{"café", 4},
		{"R$ 10,50", 4},
		{"  a  ", 1},
	}

	for _, tt := range tests {
		if got := UsefulLength(tt.input); got != tt.want {
			t.Errorf("UsefulLength(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"netflix com", "Netflix Com"},
		{"MERCADO XYZ", "Mercado Xyz"},
		{"padaria do zé", "Padaria Do Zé"},
	}

	for _, tt := range tests {
		if got := Title(tt.input); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
