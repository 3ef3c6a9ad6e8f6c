package store

// SQLite schema DDL constants. One record table per node kind, one edge
// table per credit kind.

const schemaPeople = `
CREATE TABLE IF NOT EXISTS people (
    id INTEGER PRIMARY KEY,
    metadata TEXT,
    explored_depth INTEGER NOT NULL DEFAULT 0
)`

const schemaMovies = `
CREATE TABLE IF NOT EXISTS movies (
    id INTEGER PRIMARY KEY,
    metadata TEXT,
    explored_depth INTEGER NOT NULL DEFAULT 0
)`

const schemaTvSeries = `
CREATE TABLE IF NOT EXISTS tv_series (
    id INTEGER PRIMARY KEY,
    metadata TEXT,
    explored_depth INTEGER NOT NULL DEFAULT 0
)`

const schemaMovieCredits = `
CREATE TABLE IF NOT EXISTS movie_credits (
    actor INTEGER NOT NULL,
    job INTEGER NOT NULL,
    PRIMARY KEY (actor, job)
)`

const schemaTvCredits = `
CREATE TABLE IF NOT EXISTS tv_credits (
    actor INTEGER NOT NULL,
    job INTEGER NOT NULL,
    PRIMARY KEY (actor, job)
)`

const indexMovieCreditsJob = `CREATE INDEX IF NOT EXISTS idx_movie_credits_job ON movie_credits(job)`
const indexTvCreditsJob = `CREATE INDEX IF NOT EXISTS idx_tv_credits_job ON tv_credits(job)`

func allSchemaStatements() []string {
	return []string{
		schemaPeople,
		schemaMovies,
		schemaTvSeries,
		schemaMovieCredits,
		schemaTvCredits,
		indexMovieCreditsJob,
		indexTvCreditsJob,
	}
}

func allPragmas() []string {
	return []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	}
}
