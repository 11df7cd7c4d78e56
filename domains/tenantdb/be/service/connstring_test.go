package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDatabase(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "replaces database key",
			in:   "Server=tcp:s.database.windows.net,1433;Database=master;User ID=admin;Password=p",
			want: "Server=tcp:s.database.windows.net,1433;Database=DB_1_X;User ID=admin;Password=p",
		},
		{
			name: "replaces initial catalog key",
			in:   "Server=s;Initial Catalog=master;User ID=admin",
			want: "Server=s;Initial Catalog=DB_1_X;User ID=admin",
		},
		{
			name: "appends when no catalog present",
			in:   "Server=s;User ID=admin;Password=p",
			want: "Server=s;User ID=admin;Password=p;Database=DB_1_X",
		},
		{
			name: "key match is case insensitive",
			in:   "Server=s;DATABASE=master",
			want: "Server=s;DATABASE=DB_1_X",
		},
		{
			name: "trailing separator dropped",
			in:   "Server=s;Database=master;",
			want: "Server=s;Database=DB_1_X",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, WithDatabase(tc.in, "DB_1_X"))
		})
	}
}

func TestBuildConnectionString(t *testing.T) {
	cs := BuildConnectionString("s.database.windows.net", "DB_10_Mister_Suits", "login_abc", "Pw_def")

	require.Equal(t,
		"Server=tcp:s.database.windows.net,1433;Database=DB_10_Mister_Suits;User ID=login_abc;Password=Pw_def;Encrypt=true;TrustServerCertificate=false;Connection Timeout=30",
		cs,
	)
}
