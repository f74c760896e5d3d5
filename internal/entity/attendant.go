package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AttendantCount é fixo: os menus oferecem exatamente três opções.
const AttendantCount = 3

var ErrInvalidAttendants = errors.New("diretório de atendentes inválido")

type Attendant struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"nome" yaml:"nome"`
	Number string `json:"numero" yaml:"numero"`
}

// ChatLink é o link de conversa direta enviado ao cliente.
func (a Attendant) ChatLink() string {
	return "https://wa.me/" + a.Number
}

type AttendantDirectory struct {
	attendants []Attendant
}

func DefaultAttendants() []Attendant {
	return []Attendant{
		{ID: "milene", Name: "Milene", Number: "5562991989622"},
		{ID: "leane", Name: "Leane", Number: "5562999646094"},
		{ID: "danubia", Name: "Danubia", Number: "5562999967460"},
	}
}

func NewAttendantDirectory(list []Attendant) (*AttendantDirectory, error) {
	if len(list) != AttendantCount {
		return nil, fmt.Errorf("%w: esperado %d atendentes, recebido %d", ErrInvalidAttendants, AttendantCount, len(list))
	}

	seen := make(map[string]bool, len(list))
	for i, a := range list {
		if strings.TrimSpace(a.ID) == "" || strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Number) == "" {
			return nil, fmt.Errorf("%w: atendente %d incompleta", ErrInvalidAttendants, i+1)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: id duplicado %q", ErrInvalidAttendants, a.ID)
		}
		seen[a.ID] = true
	}

	copied := make([]Attendant, len(list))
	copy(copied, list)
	return &AttendantDirectory{attendants: copied}, nil
}

func DefaultAttendantDirectory() *AttendantDirectory {
	return mustDirectory(NewAttendantDirectory(DefaultAttendants()))
}

func mustDirectory(d *AttendantDirectory, err error) *AttendantDirectory {
	if err != nil {
		panic(err)
	}
	return d
}

// ByOption mapeia a opção do menu ("1".."3") para a atendente na mesma posição.
func (d *AttendantDirectory) ByOption(option string) (Attendant, bool) {
	if len(option) != 1 {
		return Attendant{}, false
	}
	n, err := strconv.Atoi(option)
	if err != nil || n < 1 || n > len(d.attendants) {
		return Attendant{}, false
	}
	return d.attendants[n-1], true
}

func (d *AttendantDirectory) ByID(id string) (Attendant, bool) {
	for _, a := range d.attendants {
		if a.ID == id {
			return a, true
		}
	}
	return Attendant{}, false
}

func (d *AttendantDirectory) All() []Attendant {
	out := make([]Attendant, len(d.attendants))
	copy(out, d.attendants)
	return out
}
