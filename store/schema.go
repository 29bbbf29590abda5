package store

// schema is the complete DDL for the hybrid retrieval index: a content
// table, an FTS5 shadow table kept in sync by triggers (pattern lifted from
// domkeeper/internal/store/schema.go's chunks/chunks_fts pair), a plain
// vector table (modernc.org/sqlite has no vec0-style ANN extension, so
// nearest-neighbor search is a brute-force scan over this table rather than
// an index — spec §4.G's Open Question resolved toward the simpler,
// dependency-free option), and a _meta table recording the configured
// vector dimension so a restart with a different Embed model is detected
// rather than silently corrupting comparisons.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    library       TEXT NOT NULL,
    version       TEXT NOT NULL,
    url           TEXT NOT NULL,
    content       TEXT NOT NULL,
    metadata_json TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_documents_library_version ON documents(library, version);
CREATE INDEX IF NOT EXISTS idx_documents_url ON documents(url);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    content,
    content='documents',
    content_rowid='id',
    tokenize='unicode61 remove_diacritics 2'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
    INSERT INTO documents_fts(rowid, content) VALUES (new.id, new.content);
END;
CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
    INSERT INTO documents_fts(documents_fts, rowid, content) VALUES ('delete', old.id, old.content);
    INSERT INTO documents_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TABLE IF NOT EXISTS documents_vec (
    id        INTEGER PRIMARY KEY,
    embedding BLOB NOT NULL,
    norm      REAL NOT NULL,
    FOREIGN KEY (id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS _meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const metaKeyVectorDimension = "vector_dimension"
