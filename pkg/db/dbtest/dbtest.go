// Package dbtest opens an in-memory sqlite database carrying the laundry
// schema, for repository and service tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/laundry-backend/pkg/config"
	"github.com/angelmondragon/laundry-backend/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var schema = []string{`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE customers (
  id TEXT PRIMARY KEY,
  nomor_hp TEXT NOT NULL UNIQUE,
  nama_terakhir TEXT NOT NULL DEFAULT '',
  alamat_terakhir TEXT NOT NULL DEFAULT '',
  google_maps_terakhir TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE status_ref (
  id INTEGER PRIMARY KEY,
  nama_status TEXT NOT NULL
);`, `
INSERT INTO status_ref (id, nama_status) VALUES
  (1, 'Baru'), (2, 'Ditugaskan'), (3, 'Sudah Jemput'), (4, 'Diproses'),
  (5, 'Sudah Antar'), (6, 'Selesai'), (7, 'Batal');`, `
CREATE TABLE permintaan (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  status_id INTEGER NOT NULL DEFAULT 1,
  nomor_tiket TEXT NOT NULL,
  jenis_tugas TEXT NOT NULL,
  alamat_jalan TEXT NOT NULL,
  google_maps_link TEXT,
  waktu_order DATETIME NOT NULL,
  waktu_penjemputan DATETIME,
  waktu_assigned DATETIME,
  waktu_kurir_selesai DATETIME,
  waktu_selesai DATETIME,
  catatan_khusus TEXT,
  nomor_nota TEXT,
  courier_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  permintaan_id TEXT NOT NULL,
  produk_layanan TEXT NOT NULL DEFAULT '',
  jenis_layanan TEXT NOT NULL DEFAULT '',
  parfum TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`, `
CREATE TABLE status_logs (
  id TEXT PRIMARY KEY,
  permintaan_id TEXT NOT NULL,
  status_id_baru INTEGER NOT NULL,
  changed_by TEXT,
  created_at DATETIME
);`, `
CREATE TABLE promo_settings (
  id INTEGER PRIMARY KEY,
  promo_text TEXT NOT NULL DEFAULT '',
  promo_image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`, `
INSERT INTO promo_settings (id) VALUES (1);`,
}

// Open returns a client on a fresh database private to the calling test.
func Open(t testing.TB) *db.Client {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	client, err := db.Open(context.Background(), sqlite.Open(dsn), config.DBConfig{MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range schema {
		if err := client.DB().Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// OpenDB is Open for callers that only need the gorm handle.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	return Open(t).DB()
}
