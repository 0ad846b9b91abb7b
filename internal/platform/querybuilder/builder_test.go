package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "team_name").
		From("rank_entries").
		Where(Eq("lobby", "35"), Eq("competition_window", "WEEKLY")).
		OrderBy("points DESC", "kills DESC", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, team_name FROM rank_entries WHERE lobby = $1 AND competition_window = $2 ORDER BY points DESC, kills DESC, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "35" || args[1] != "WEEKLY" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("batch_history").
		Columns("batch_id", "lobby").
		Values("MANUAL-1700000000000", "45").
		Suffix("RETURNING batch_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO batch_history (batch_id, lobby) VALUES ($1, $2) RETURNING batch_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("accounts").
		Set("display_name", "new").
		SetExpr("updated_at", "NOW()").
		Where(Eq("user_id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE accounts SET display_name = $1, updated_at = NOW() WHERE user_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "new" || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilderWithExprCondition(t *testing.T) {
	query, args, err := Update("accounts").
		SetExpr("points_balance", "points_balance - ?", 500).
		Where(Eq("user_id", "u1"), Expr("points_balance >= ?", 500)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE accounts SET points_balance = points_balance - $1 WHERE user_id = $2 AND points_balance >= $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("rank_entries").
		Where(Eq("batch_id", "EXTRACTED-1700000000000")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM rank_entries WHERE batch_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("rank_entries").ToSQL(); err == nil {
		t.Fatal("unconditional delete must be rejected")
	}
}

func TestInCondition(t *testing.T) {
	query, args, err := Select("*").
		From("purchase_requests").
		Where(In("status", []any{"PENDING", "APPROVED"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM purchase_requests WHERE status IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
