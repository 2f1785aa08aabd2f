package store

const Schema = `
CREATE TABLE IF NOT EXISTS items (
	topic TEXT PRIMARY KEY NOT NULL UNIQUE,
	pipeline_status TEXT NOT NULL DEFAULT 'PENDING_SCRIPT',
	generated_script_path TEXT,
	final_video_path TEXT,
	youtube_url TEXT,
	last_error TEXT,
	last_updated DATETIME NOT NULL,
	source_type TEXT,
	source_detail TEXT
);

CREATE INDEX IF NOT EXISTS idx_items_status_updated ON items(pipeline_status, last_updated);
`
