package repositories

import "github.com/wexford-labs/widgetry/internal/query"

// Collection descriptors for the list endpoints. Every field a client may
// filter, sort, or select on is enumerated here; anything else is rejected
// before SQL is generated.

func WidgetDescriptor() query.Descriptor {
	return query.Descriptor{
		Table:        "widgets",
		IDField:      "id",
		CreatedField: "createdAt",
		Fields: []query.Field{
			{Name: "id", Column: "id"},
			{Name: "name", Column: "name"},
			{Name: "description", Column: "description"},
			{Name: "who", Column: "who"},
			{Name: "what", Column: "what"},
			{Name: "when", Column: `"when"`},
			{Name: "why", Column: "why"},
			{Name: "where", Column: `"where"`},
			{Name: "wishes", Column: "wishes"},
			{Name: "user", Column: "user_id"},
			{Name: "createdAt", Column: "created_at"},
			{Name: "updatedAt", Column: "updated_at"},
		},
	}
}

func UserDescriptor() query.Descriptor {
	return query.Descriptor{
		Table:        "users",
		IDField:      "id",
		CreatedField: "createdAt",
		Fields: []query.Field{
			{Name: "id", Column: "id"},
			{Name: "name", Column: "name"},
			{Name: "email", Column: "email"},
			{Name: "avatar", Column: "avatar_url"},
			{Name: "role", Column: "role"},
			{Name: "createdAt", Column: "created_at"},
			{Name: "updatedAt", Column: "updated_at"},
			{Name: "password", Column: "password_hash", Sensitive: true},
			{Name: "resetPasswordToken", Column: "reset_token_hash", Sensitive: true},
			{Name: "resetPasswordExpire", Column: "reset_token_expires", Sensitive: true},
		},
	}
}

func PostDescriptor() query.Descriptor {
	return query.Descriptor{
		Table:        "posts",
		IDField:      "id",
		CreatedField: "createdAt",
		Fields: []query.Field{
			{Name: "id", Column: "id"},
			{Name: "user", Column: "user_id"},
			{Name: "text", Column: "text"},
			{Name: "name", Column: "author_name"},
			{Name: "avatar", Column: "author_avatar"},
			{Name: "createdAt", Column: "created_at"},
		},
	}
}

// ProfileDescriptor expands each profile with its owner's name and avatar,
// mirroring what profile consumers always need alongside the profile itself.
func ProfileDescriptor() query.Descriptor {
	return query.Descriptor{
		Table:        "profiles",
		IDField:      "id",
		CreatedField: "createdAt",
		Fields: []query.Field{
			{Name: "id", Column: "id"},
			{Name: "user", Column: "user_id"},
			{Name: "company", Column: "company"},
			{Name: "website", Column: "website"},
			{Name: "location", Column: "location"},
			{Name: "status", Column: "status"},
			{Name: "skills", Column: "skills"},
			{Name: "bio", Column: "bio"},
			{Name: "githubUsername", Column: "github_username"},
			{Name: "createdAt", Column: "created_at"},
			{Name: "updatedAt", Column: "updated_at"},
		},
		Relation: &query.Relation{
			Name:        "user",
			Table:       "users",
			LocalField:  "user",
			RemoteField: query.Field{Name: "id", Column: "id"},
			Fields: []query.Field{
				{Name: "name", Column: "name"},
				{Name: "avatar", Column: "avatar_url"},
			},
		},
	}
}
