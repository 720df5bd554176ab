package database

import (
	"context"
	"fmt"
	"poolcare_server/structs/tables"

	"github.com/uptrace/bun"
)

type tableSpec struct {
	model       any
	foreignKeys []string
	indexes     []index
}

type index struct {
	name    string
	columns []string
}

func fk(column, table, onDelete string) string {
	return fmt.Sprintf(`("%s") REFERENCES "%s" ("id") ON DELETE %s`, column, table, onDelete)
}

// Tables are listed parents first so foreign keys resolve.
var schema = []tableSpec{
	{model: (*tables.User)(nil)},
	{model: (*tables.Address)(nil), foreignKeys: []string{fk("user_id", "users", "CASCADE")}},
	{
		model:       (*tables.Category)(nil),
		foreignKeys: []string{fk("parent_id", "categories", "RESTRICT")},
		indexes:     []index{{"categories_parent_id_idx", []string{"parent_id"}}},
	},
	{
		model:       (*tables.Product)(nil),
		foreignKeys: []string{fk("category_id", "categories", "SET NULL")},
		indexes:     []index{{"products_category_id_idx", []string{"category_id"}}},
	},
	{
		model:       (*tables.Service)(nil),
		foreignKeys: []string{fk("category_id", "categories", "SET NULL")},
		indexes:     []index{{"services_category_id_idx", []string{"category_id"}}},
	},
	{model: (*tables.Attachment)(nil), indexes: []index{{"attachments_item_type_item_id_idx", []string{"item_type", "item_id"}}}},
	{model: (*tables.Bundle)(nil)},
	{
		model: (*tables.BundleProduct)(nil),
		// RESTRICT keeps a product from being deleted while a bundle uses it
		foreignKeys: []string{fk("bundle_id", "bundles", "CASCADE"), fk("product_id", "products", "RESTRICT")},
	},
	{
		model:       (*tables.BundleService)(nil),
		foreignKeys: []string{fk("bundle_id", "bundles", "CASCADE"), fk("service_id", "services", "RESTRICT")},
	},
	{
		model: (*tables.Schedule)(nil),
		foreignKeys: []string{
			fk("customer_id", "users", "CASCADE"),
			fk("address_id", "addresses", "SET NULL"),
			fk("service_id", "services", "SET NULL"),
		},
		indexes: []index{{"schedules_customer_id_scheduled_at_idx", []string{"customer_id", "scheduled_at"}}},
	},
	{
		model: (*tables.Job)(nil),
		foreignKeys: []string{
			fk("schedule_id", "schedules", "SET NULL"),
			fk("customer_id", "users", "CASCADE"),
			fk("service_id", "services", "SET NULL"),
		},
		indexes: []index{{"jobs_schedule_id_idx", []string{"schedule_id"}}, {"jobs_customer_id_idx", []string{"customer_id"}}},
	},
	{
		model:       (*tables.Invoice)(nil),
		foreignKeys: []string{fk("customer_id", "users", "RESTRICT"), fk("schedule_id", "schedules", "SET NULL")},
		indexes:     []index{{"invoices_customer_id_idx", []string{"customer_id"}}},
	},
	{model: (*tables.InvoiceLine)(nil), foreignKeys: []string{fk("invoice_id", "invoices", "CASCADE")}},
	{
		model:       (*tables.Payment)(nil),
		foreignKeys: []string{fk("invoice_id", "invoices", "RESTRICT"), fk("customer_id", "users", "RESTRICT")},
		indexes:     []index{{"payments_invoice_id_idx", []string{"invoice_id"}}},
	},
	{
		model:       (*tables.Quote)(nil),
		foreignKeys: []string{fk("customer_id", "users", "SET NULL")},
		indexes:     []index{{"quotes_customer_id_idx", []string{"customer_id"}}},
	},
	{model: (*tables.QuoteLine)(nil), foreignKeys: []string{fk("quote_id", "quotes", "CASCADE")}},
	{model: (*tables.PoolDNA)(nil), foreignKeys: []string{fk("customer_id", "users", "CASCADE")}},
	{model: (*tables.ContactMessage)(nil)},
}

const getUserRoleFn = `
CREATE OR REPLACE FUNCTION get_user_role(uid uuid) RETURNS text
LANGUAGE sql STABLE AS $fn$
	SELECT role FROM users WHERE id = uid
$fn$`

// The channel name is bound as a literal by bun.
const notifyScheduleFn = `
CREATE OR REPLACE FUNCTION notify_schedule_change() RETURNS trigger
LANGUAGE plpgsql AS $fn$
DECLARE
	rec record;
BEGIN
	IF TG_OP = 'DELETE' THEN
		rec := OLD;
	ELSE
		rec := NEW;
	END IF;
	PERFORM pg_notify(?, json_build_object(
		'table', TG_TABLE_NAME,
		'action', lower(TG_OP),
		'id', rec.id,
		'customer_id', rec.customer_id
	)::text);
	RETURN rec;
END
$fn$`

// CreateSchema creates every table, index and function the service relies on.
// It is idempotent.
func CreateSchema(ctx context.Context, db bun.IDB, scheduleChannel string) error {
	for _, t := range schema {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, f := range t.foreignKeys {
			q = q.ForeignKey(f)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", t.model, err)
		}

		for _, idx := range t.indexes {
			_, err := db.NewCreateIndex().Model(t.model).Index(idx.name).Column(idx.columns...).IfNotExists().Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}
	}

	statements := []struct {
		sql  string
		args []any
	}{
		{sql: getUserRoleFn},
		{sql: notifyScheduleFn, args: []any{scheduleChannel}},
		{sql: `DROP TRIGGER IF EXISTS schedules_notify ON schedules`},
		{sql: `CREATE TRIGGER schedules_notify AFTER INSERT OR UPDATE OR DELETE ON schedules
			FOR EACH ROW EXECUTE FUNCTION notify_schedule_change()`},
	}
	for _, st := range statements {
		if _, err := db.ExecContext(ctx, st.sql, st.args...); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
