package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

type Client struct {
	Supabase *supabase.Client
}

func NewClient(supabaseURL, publishableKey string) (*Client, error) {
	client, err := supabase.NewClient(supabaseURL, publishableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{Supabase: client}, nil
}
