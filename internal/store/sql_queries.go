package store

const (
	createPanel = `INSERT INTO panels (panel_name)
    VALUES ($1)
    RETURNING panel_id;`

	reactivatePanel = `UPDATE panels
    SET is_deleted = FALSE
    WHERE panel_id = $1;`

	softDeletePanel = `UPDATE panels
    SET is_deleted = TRUE
    WHERE panel_id = $1;`

	getPanelByID = `SELECT panel_id, panel_name, description, is_deleted, created_at
    FROM panels
    WHERE panel_id = $1;`

	createFile = `INSERT INTO files (panel_id, file_name)
    VALUES ($1, $2);`

	reactivateFiles = `UPDATE files
    SET is_deleted = FALSE
    WHERE file_id = ANY($1);`

	softDeleteFiles = `UPDATE files
    SET is_deleted = TRUE
    WHERE file_id = ANY($1);`

	createUser = `INSERT INTO users (name, email)
    VALUES ($1, $2)
    RETURNING user_id, name, email, created_at;`

	getUserByID = `SELECT user_id, name, email, created_at
    FROM users
    WHERE user_id = $1;`

	listUsers = `SELECT user_id, name, email, created_at
    FROM users
    ORDER BY user_id;`

	deleteUser = `DELETE FROM users
    WHERE user_id = $1;`

	revokeLiveAssignment = `UPDATE user_assignments
    SET revoked = TRUE
    WHERE user_id = $1 AND panel_id = $2 AND NOT revoked;`

	createAssignment = `INSERT INTO user_assignments (user_id, panel_id, secret_code, qr_payload)
    VALUES ($1, $2, $3, $4)
    RETURNING assignment_id, user_id, panel_id, secret_code, qr_payload, revoked, created_at;`

	findAssignmentBySecretCode = `SELECT a.assignment_id, a.user_id, a.panel_id, a.secret_code, a.qr_payload, a.revoked, a.created_at, u.name, u.email
    FROM user_assignments a
    JOIN users u ON u.user_id = a.user_id
    WHERE a.secret_code = $1 AND NOT a.revoked;`

	getAssignmentByID = `SELECT a.assignment_id, a.user_id, a.panel_id, a.secret_code, a.qr_payload, a.revoked, a.created_at, u.name, u.email
    FROM user_assignments a
    JOIN users u ON u.user_id = a.user_id
    WHERE a.assignment_id = $1;`

	appendScanLog = `INSERT INTO user_scan_log (assignment_id, status)
    VALUES ($1, $2)
    RETURNING scan_id, scanned_at;`

	listScanLogByAssignment = `SELECT scan_id, assignment_id, status, scanned_at
    FROM user_scan_log
    WHERE assignment_id = $1
    ORDER BY scanned_at;`

	createOtpChallenge = `INSERT INTO otp_challenges (assignment_id, code_hash, expires_at, max_attempts)
    VALUES ($1, $2, $3, $4)
    RETURNING challenge_id, assignment_id, code_hash, expires_at, attempts, max_attempts, consumed, expired, created_at;`

	latestPendingOtpChallenge = `SELECT challenge_id, assignment_id, code_hash, expires_at, attempts, max_attempts, consumed, expired, created_at
    FROM otp_challenges
    WHERE assignment_id = $1 AND NOT consumed AND NOT expired
    ORDER BY created_at DESC
    LIMIT 1;`

	incrementOtpAttempts = `UPDATE otp_challenges
    SET attempts = attempts + 1
    WHERE challenge_id = $1
    RETURNING attempts;`

	consumeOtpChallenge = `UPDATE otp_challenges
    SET consumed = TRUE
    WHERE challenge_id = $1 AND NOT consumed AND NOT expired;`

	expireOtpChallenge = `UPDATE otp_challenges
    SET expired = TRUE
    WHERE challenge_id = $1 AND NOT consumed AND NOT expired;`
)
