package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

const DefaultTopDestinations = 5

type LeadStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

type DestinationCount struct {
	Destination string `json:"destino"`
	Count       int    `json:"count"`
}

type TravelTypeCount struct {
	TravelType string `json:"tipo"`
	Count      int    `json:"count"`
}

type StatsOutput struct {
	Stats           LeadStats          `json:"stats"`
	TopDestinations []DestinationCount `json:"topDestinations"`
	TopTravelTypes  []TravelTypeCount  `json:"topTravelTypes"`
}

// ComputeStats conta no fuso de now. "Semana" são os últimos 7 dias corridos.
func ComputeStats(leads []*entity.Lead, now time.Time) LeadStats {
	y, m, d := now.Date()
	weekAgo := now.AddDate(0, 0, -7)

	st := LeadStats{Total: len(leads)}
	for _, l := range leads {
		created := l.CreatedAt.In(now.Location())
		cy, cm, cd := created.Date()

		if cy == y && cm == m && cd == d {
			st.Today++
		}
		if !created.Before(weekAgo) {
			st.ThisWeek++
		}
		if cy == y && cm == m {
			st.ThisMonth++
		}
	}
	return st
}

type rankEntry struct {
	key   string
	count int
}

func rankField(leads []*entity.Lead, field string) []rankEntry {
	counts := make(map[string]int)
	for _, l := range leads {
		if v := l.Field(field); v != "" {
			counts[v]++
		}
	}

	out := make([]rankEntry, 0, len(counts))
	for k, c := range counts {
		out = append(out, rankEntry{key: k, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func TopDestinations(leads []*entity.Lead, limit int) []DestinationCount {
	ranked := rankField(leads, FieldDestination)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]DestinationCount, len(ranked))
	for i, r := range ranked {
		out[i] = DestinationCount{Destination: r.key, Count: r.count}
	}
	return out
}

func TopTravelTypes(leads []*entity.Lead) []TravelTypeCount {
	ranked := rankField(leads, FieldTripType)
	out := make([]TravelTypeCount, len(ranked))
	for i, r := range ranked {
		out[i] = TravelTypeCount{TravelType: r.key, Count: r.count}
	}
	return out
}

type LeadLister interface {
	List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error)
}

type LeadStatsUseCase struct {
	Repo LeadLister
	Now  func() time.Time
}

func NewLeadStatsUseCase(repo LeadLister) *LeadStatsUseCase {
	return &LeadStatsUseCase{Repo: repo, Now: time.Now}
}

func (uc *LeadStatsUseCase) Execute(ctx context.Context) (*StatsOutput, error) {
	leads, err := uc.Repo.List(ctx, entity.LeadFilter{})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}

	return &StatsOutput{
		Stats:           ComputeStats(leads, uc.Now()),
		TopDestinations: TopDestinations(leads, DefaultTopDestinations),
		TopTravelTypes:  TopTravelTypes(leads),
	}, nil
}
