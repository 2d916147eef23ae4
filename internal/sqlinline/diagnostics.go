package sqlinline

const QProbe = `--sql 00638052-908f-4941-913a-1fa2e1c1c6c5
select now(), current_database();
`

const QPing = `--sql 266ffb68-6bab-42da-9c1e-b159dc5ce6f4
select 1;
`
