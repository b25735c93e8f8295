package algo

import "slices"

// popularReferenceDownloads is the nominal weekly download count attributed to
// every corpus entry.
const popularReferenceDownloads = 100000

// Corpus is the read-only list of well-known package names used for
// name-similarity checks.
type Corpus struct {
	names              []string
	referenceDownloads int
}

// NewCorpus builds a corpus from names, dropping duplicates.
func NewCorpus(names []string, referenceDownloads int) Corpus {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return Corpus{names: out, referenceDownloads: referenceDownloads}
}

// Names returns a copy of the corpus entries.
func (c Corpus) Names() []string { return slices.Clone(c.names) }

// Len returns the number of entries.
func (c Corpus) Len() int { return len(c.names) }

// DefaultCorpus returns the built-in popular package corpus.
func DefaultCorpus() Corpus {
	return NewCorpus([]string{
		"lodash", "chalk", "react", "express", "debug", "moment", "commander", "axios",
		"glob", "semver", "uuid", "minimist", "yargs", "mkdirp", "rimraf", "async",
		"bluebird", "underscore", "request", "webpack", "typescript", "eslint", "prettier",
		"babel", "jest", "mocha", "chai", "next", "vue", "angular", "svelte", "jquery",
		"bootstrap", "tailwindcss", "dotenv", "cors", "helmet", "mongoose", "sequelize",
		"prisma", "graphql", "apollo", "socket.io", "redis", "pg", "mysql2", "sharp", "jimp",
		"puppeteer", "playwright", "cheerio", "zod", "yup", "joi", "ajv", "date-fns",
		"dayjs", "luxon", "inquirer", "ora", "boxen", "nanoid", "cuid", "ulid", "pino",
		"winston", "bunyan", "morgan", "node-fetch", "got", "fastify", "koa", "hapi",
		"restify", "nest", "strapi", "three", "d3", "chart.js", "recharts", "echarts",
		"framer-motion", "gsap", "anime", "lottie-web", "nodemailer", "stripe", "aws-sdk",
		"firebase", "bcrypt", "jsonwebtoken", "passport", "argon2", "ramda", "rxjs", "immer",
		"mobx", "zustand", "jotai", "recoil", "sass", "less", "postcss", "autoprefixer",
		"cssnano", "rollup", "vite", "esbuild", "parcel", "turbopack",
	}, popularReferenceDownloads)
}
