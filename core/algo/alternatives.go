package algo

import "github.com/huangsam/depshield/schema"

// DefaultAlternatives returns the built-in curated alternatives table.
func DefaultAlternatives() AlternativesTable {
	return AlternativesTable{
		"lodash": {
			{Name: "es-toolkit", Description: "Modern, performant lodash alternative with tree-shaking", WeeklyDownloads: 850000, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "Drop-in replacement for most lodash methods with better bundle size"},
			{Name: "radash", Description: "Functional utility library, zero dependencies", WeeklyDownloads: 320000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Modern API with TypeScript-first design"},
			{Name: "remeda", Description: "TypeScript-first utility library with lazy evaluation", WeeklyDownloads: 180000, HealthGrade: schema.GradeB, Effort: schema.EffortMedium, Reason: "Better TypeScript inference than lodash"},
		},
		"underscore": {
			{Name: "lodash", Description: "Feature-rich utility library", WeeklyDownloads: 45000000, HealthGrade: schema.GradeB, Effort: schema.EffortLow, Reason: "Direct superset of underscore functionality"},
			{Name: "es-toolkit", Description: "Modern lodash alternative", WeeklyDownloads: 850000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Modern, tree-shakeable replacement"},
		},
		"moment": {
			{Name: "date-fns", Description: "Modern date utility library with tree-shaking", WeeklyDownloads: 22000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Modular design, much smaller bundle"},
			{Name: "dayjs", Description: "Tiny date library with Moment.js API", WeeklyDownloads: 18000000, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "Nearly identical API to moment, 2KB vs 67KB"},
			{Name: "luxon", Description: "Modern date library by Moment team", WeeklyDownloads: 8000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Built by Moment.js authors as its successor"},
		},
		"request": {
			{Name: "axios", Description: "Promise-based HTTP client", WeeklyDownloads: 48000000, HealthGrade: schema.GradeB, Effort: schema.EffortMedium, Reason: "request is deprecated; axios is the most popular alternative"},
			{Name: "got", Description: "Human-friendly HTTP request library", WeeklyDownloads: 12000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Modern, stream-based, TypeScript support"},
			{Name: "ky", Description: "Tiny HTTP client based on Fetch API", WeeklyDownloads: 3000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Tiny bundle, modern Fetch-based API"},
		},
		"node-fetch": {
			{Name: "undici", Description: "HTTP/1.1 client built for Node.js", WeeklyDownloads: 35000000, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "Ships with Node.js 18+; no external dependency needed"},
		},
		"joi": {
			{Name: "zod", Description: "TypeScript-first schema validation", WeeklyDownloads: 14000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Better TypeScript integration, smaller bundle"},
			{Name: "valibot", Description: "Modular schema validation library", WeeklyDownloads: 1200000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Tree-shakeable, much smaller than Zod"},
		},
		"yup": {
			{Name: "zod", Description: "TypeScript-first schema validation", WeeklyDownloads: 14000000, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "Similar API, better TypeScript support"},
		},
		"bunyan": {
			{Name: "pino", Description: "Very low overhead Node.js logger", WeeklyDownloads: 7000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Much faster, actively maintained"},
		},
		"winston": {
			{Name: "pino", Description: "Very low overhead Node.js logger", WeeklyDownloads: 7000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "5x faster in benchmarks"},
		},
		"commander": {
			{Name: "citty", Description: "Elegant CLI builder by unjs", WeeklyDownloads: 2000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Modern, TypeScript-first, smaller footprint"},
		},
		"minimist": {
			{Name: "mri", Description: "Minimist replacement, 2x faster", WeeklyDownloads: 5000000, HealthGrade: schema.GradeB, Effort: schema.EffortLow, Reason: "API-compatible, faster parsing"},
		},
		"mongoose": {
			{Name: "prisma", Description: "Next-generation ORM with type safety", WeeklyDownloads: 3500000, HealthGrade: schema.GradeA, Effort: schema.EffortHigh, Reason: "Auto-generated types, migration system, better DX"},
		},
		"sequelize": {
			{Name: "prisma", Description: "Next-generation ORM with type safety", WeeklyDownloads: 3500000, HealthGrade: schema.GradeA, Effort: schema.EffortHigh, Reason: "Modern, type-safe, better developer experience"},
			{Name: "drizzle-orm", Description: "Lightweight TypeScript ORM", WeeklyDownloads: 1200000, HealthGrade: schema.GradeA, Effort: schema.EffortHigh, Reason: "SQL-like API, excellent TypeScript support"},
		},
		"mocha": {
			{Name: "vitest", Description: "Vite-native testing framework", WeeklyDownloads: 8000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Faster, ESM-first, Jest-compatible API"},
		},
		"chai": {
			{Name: "vitest", Description: "Vite-native test framework with built-in assertions", WeeklyDownloads: 8000000, HealthGrade: schema.GradeA, Effort: schema.EffortMedium, Reason: "Includes assertion library, no separate dep needed"},
		},
		"bluebird": {
			{Name: "native-promises", Description: "Use native Promises (built into Node.js)", WeeklyDownloads: 0, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "Native Promises are now fast enough; no library needed"},
		},
		"uuid": {
			{Name: "nanoid", Description: "Tiny, secure URL-friendly unique string ID generator", WeeklyDownloads: 25000000, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "Smaller, faster, URL-safe by default"},
		},
		"node-sass": {
			{Name: "sass", Description: "Official Dart Sass implementation", WeeklyDownloads: 12000000, HealthGrade: schema.GradeA, Effort: schema.EffortLow, Reason: "node-sass is deprecated; sass is the official replacement"},
		},
	}
}
